package extract

import "strings"

// joinLines builds recovered text the way the PDF reader emits it
func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}

// sampleBill is a shipping bill whose invoice section carries a complete
// single-line item record
var sampleBill = joinLines(
	"SHIPPING BILL FOR EXPORT OF GOODS",
	"SB No 1234567   Date 12-JAN-2025",
	"CONSIGNEE NAME AND ADDRESS",
	"FLORA TRADING PTE LTD",
	"SINGAPORE",
	"PART - II - INVOICE DETAILS",
	"1.INV NO JT-086/24-25",
	"4.CURRENCY",
	"SGD",
	"EXCHANGE RATE 1 SGD INR 60.8",
	"06039000 FRESH MIXED FLOWERS & GARLANDS 632 KGS 3 1896",
	"PART - III - ITEM DETAILS",
	"06039000",
	"FRESH MIXED FLOWERS &",
	"GARLANDS",
	"632",
	"KGS",
	"3",
	"1896",
)

// columnarBill has its item columns split one value per line above the
// invoice heading, so only the vertical strategy can read it
var columnarBill = joinLines(
	"SHIPPING BILL",
	"06031200",
	"CARNATIONS WHITE",
	"06031900",
	"CHRYSANTHEMUMS",
	"2500",
	"KGS",
	"5",
	"12500",
	"3000",
	"KGS",
	"4",
	"12000",
	"PART - II - INVOICE DETAILS",
	"PART - III - ITEM DETAILS",
)
