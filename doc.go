/*
Package killfeed-sheets mirrors the kill and death event tables of a killfeed
database to a Google Sheets worksheet.

killfeed-sheets can be used from the command line but is really intended to be run
from a cron job to keep a shared spreadsheet in step with the event database, with
the database as the authoritative copy.

killfeed-sheets supports the following commands:

  - authorise, to authorise application access to the Google Sheets worksheet
  - sync, to rewrite the worksheet from the kills and deaths tables
  - compare, to audit the worksheet contents against the database
  - get, to download a Google Sheets worksheet as a TSV file
  - put, to store a TSV file to a Google Sheets worksheet
  - export, to export the event tables to a local .xlsx workbook
  - serve, to run the event ingestion API
  - keys, to manage ingestion API keys
*/
package sheets
