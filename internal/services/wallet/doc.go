// Package wallet implements the transaction ledger and the wallet
// aggregator. The ledger is an append-only log of typed monetary
// events; every derived wallet field is recomputed from COMPLETED
// ledger rows inside the same database transaction that mutates them.
// The wallet row is the serialization point: balance-affecting
// operations take a row lock on it for the duration of one atomic
// mutation (read ledger state, admission decision, write row, write
// snapshot).
package wallet
