/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps its configuration as a single model stored under the
"_c:<package>" key. The initial value is loaded from the "conf" section of
the genesis file and may later be changed by the configuration owner with an
update configuration message.
*/
package gconf
