// Package transfer moves accounts in and out of a vault as a plain JSON
// array. The format is deliberately simple so exports remain readable and
// editable by hand:
//
//	[
//	  {"email": "alice@example.com", "secret": "JBSWY3DPEHPK3PXP", "counter": 0, "type": "TOTP"},
//	  {"email": "bob", "secret": "JBSWY3DPEHPK3PXP", "counter": 7, "type": "HOTP", "color": 3368601}
//	]
//
// Export writes accounts in their vault insertion order. Import reads the
// whole document, upserting element by element: entries that fail to decode
// or fail vault validation are skipped and counted rather than aborting the
// run, so one damaged record never blocks the rest of a backup.
package transfer
