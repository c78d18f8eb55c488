/*
Package subscription contains Subscription contract that sells time-limited
access to a single creator's service.

The creator allocates a configuration record with prices of the monthly,
quarterly and annual plans. Subscribers pay the plan price in GAS directly to
the creator and get a subscription record with an expiration time. The record
can be extended, paused (freezing remaining time), resumed and cancelled by
the subscriber only.

Each record lives at a storage address derived deterministically from the
contract hash, a namespace tag and the subscriber hash, so anyone can locate
it off-chain without consulting the contract.

# Contract notifications

ConfigCreated notification. This notification is produced when the creator
config is allocated.

	ConfigCreated:
	  - name: owner
	    type: Hash160
	  - name: monthlyPrice
	    type: Integer
	  - name: quarterlyPrice
	    type: Integer
	  - name: annualPrice
	    type: Integer

PriceUpdated notification. It carries prices in effect after the update.

	PriceUpdated:
	  - name: owner
	    type: Hash160
	  - name: monthlyPrice
	    type: Integer
	  - name: quarterlyPrice
	    type: Integer
	  - name: annualPrice
	    type: Integer

Subscribed notification. This notification is produced when a new
subscription record is created and paid.

	Subscribed:
	  - name: subscriber
	    type: Hash160
	  - name: creator
	    type: Hash160
	  - name: plan
	    type: Integer
	  - name: expiresAt
	    type: Integer

Extended notification.

	Extended:
	  - name: subscriber
	    type: Hash160
	  - name: plan
	    type: Integer
	  - name: expiresAt
	    type: Integer

Paused notification. PausedSince is a block time in seconds.

	Paused:
	  - name: subscriber
	    type: Hash160
	  - name: pausedSince
	    type: Integer

Resumed notification.

	Resumed:
	  - name: subscriber
	    type: Hash160
	  - name: expiresAt
	    type: Integer

Cancelled notification. This notification is produced when the record is
removed and record deposit is returned.

	Cancelled:
	  - name: subscriber
	    type: Hash160
*/
package subscription

/*
Contract storage model.

# Summary
Key-value storage format:
  - 0x01 -> int
    GAS amount transferred to the contract per subscription record
  - address("config") -> 0x01 || std.Serialize(CreatorConfig)
    creator configuration
  - address("subscription", subscriber) -> 0x02 || std.Serialize(Subscription)
    subscription of the subscriber

# Addresses
Record address is RIPEMD160(SHA256(contract || len(seed) || seed ... || bump)),
bump is the first value counting down from 255 giving an address with the
first byte not lower than 0x10. Keys below 0x10 are reserved for the service
entries.
*/
