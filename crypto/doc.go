/*
Package crypto provides the ed25519 keys used to sign transactions.

A public key is turned into a custody.Condition of the form
"sigs/ed25519/<pubkey>", and the address of that condition identifies the
signer on chain. Private keys can be generated at random, from a 32 byte
seed, or derived from a master seed along a SLIP-0010 path.
*/
package crypto
