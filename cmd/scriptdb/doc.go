// Command scriptdb ingests production script spreadsheets into a local
// SQLite dialogue database and reports on the result.
package main
