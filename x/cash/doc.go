/*
Package cash implements the balance ledger of the chain.

Every address may hold a wallet, a normalized set of coins. Coins move
between wallets with the SendMsg, and other extensions move them through the
Controller, which is how a guardian custody account pays its beneficiaries.
*/
package cash
