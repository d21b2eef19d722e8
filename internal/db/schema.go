package db

// SchemaSQL contains the database schema initialization SQL.
//
// Conversations are stored as single documents: the message list and each
// message's version list are embedded arrays, so every mutation can target
// one record. The messages field is FLEXIBLE because message and version
// shapes are owned by the application, not the schema.
const SchemaSQL = `
    DEFINE TABLE IF NOT EXISTS conversation SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON conversation TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON conversation TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON conversation TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS messages ON conversation TYPE array FLEXIBLE DEFAULT [];

    DEFINE INDEX IF NOT EXISTS conversation_updated ON conversation FIELDS updated_at;
`
