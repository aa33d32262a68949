// Package cli is the interactive front end of nutrikeeper. It opens the local
// store, wires the services and runs a read-eval-print loop over stdin.
//
// Commands
//
//	import <file.json>           import an Open Food Facts product document
//	add <name>                   add a food without a barcode
//	photo <image> [name]         add a food captured from a photo
//	show <barcode>               product details, filter warnings and ledger
//	eat <barcode> <grams>        log a consumed portion
//	edit <barcode> key=value...  correct per-100g nutrition values
//	history [all|consumed|today] list cached products
//	today                        totals of the current day
//	stats [days]                 averages and trend against the prior window
//	profile                      show the filter profile
//	set <key> <value>            change one profile setting
//	reset                        restore the default profile
//	clear                        delete every product and consumption
//	help, exit | quit
package cli
