// Command skywatchd runs the long-lived pipeline daemon: scheduled ingestion
// runs, the processed ledger, the vote tally engine, and the local HTTP API.
package main
