/*
Package guardian implements a dead man's switch custody of assets.

An owner registers a set of beneficiaries with their shares given in basis
points, the tickers of custodied assets and the maximum inactivity window.
While the owner sends heartbeats the funds held by the guardian custody
account remain under owner control. Once the window elapses without a
heartbeat any beneficiary can claim, which distributes every custodied
balance proportionally to all beneficiaries, exactly once. Nothing is
distributed after that: the amounts of failed transfers and any later
deposit stay in the custody account, where only the owner can withdraw them.

The package is layered. Registry, ActivityTracker and the distribution
functions are pure and take the current time and caller as parameters.
Controller ties them into a state machine and serializes its operations.
The handlers persist a Guardian model and run the Controller against the
cash ledger, using the block time as the clock.
*/
package guardian
