// Package account implements signup, login and the per-account endpoints.
//
// Service holds the business rules: email normalization, uniqueness,
// hashing through a bounded pool, token issuance and the ownership check
// for updates and deletes. Store is the GORM Directory over the users
// table created by the embedded migrations. Handler maps the Service onto
// gin routes; everything except signup and login sits behind the
// authentication gate.
package account
