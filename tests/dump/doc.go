/*
Package dump provides I/O operations for collected states of the Subscription
contract.

State collection (including storage) allows you to inspect records of the
"live" contract and to reproduce them in tests. The package works with dumps
stored in the file system using human-readable encoding, storage items are
labeled with the record kind.
*/
package dump
