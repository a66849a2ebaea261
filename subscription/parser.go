package subscription

import (
	"strconv"
	"time"

	"github.com/witworkapp/storekit-go/appstore"
)

// Apple renders purchase_date in a handful of shapes depending on the
// receipt's vintage. RFC3339 is tried first, then the legacy forms.
var purchaseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 Etc/GMT",
	"2006-01-02 15:04:05 MST",
}

// ParseRecords extracts subscription records from a verification response.
//
// Entries missing product_id, purchase_date, or expires_date_ms are skipped;
// partial data is expected and is not an error. A malformed expires_date_ms
// value defaults to the epoch. Output order follows input order with no
// sorting or de-duplication; overlapping periods are resolved later.
//
// A response without the receipt.in_app path yields an empty slice.
func ParseRecords(resp *appstore.VerifyResponse) []Record {
	if resp == nil || resp.Receipt == nil {
		return nil
	}

	records := make([]Record, 0, len(resp.Receipt.InApp))
	for _, entry := range resp.Receipt.InApp {
		record, ok := parseEntry(entry)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	return records
}

func parseEntry(entry appstore.InAppEntry) (Record, bool) {
	if entry.ProductID == "" || entry.PurchaseDate == "" || entry.ExpiresDateMS == "" {
		return Record{}, false
	}

	purchaseDate, ok := parsePurchaseDate(entry.PurchaseDate)
	if !ok {
		return Record{}, false
	}

	// A present but unparseable value defaults to the epoch rather than
	// dropping the entry.
	expiresMS, err := strconv.ParseInt(entry.ExpiresDateMS, 10, 64)
	if err != nil {
		expiresMS = 0
	}

	return Record{
		ProductID:     entry.ProductID,
		PurchaseDate:  purchaseDate,
		ExpiresDate:   time.UnixMilli(expiresMS).UTC(),
		IsTrialPeriod: bool(entry.IsTrialPeriod),
	}, true
}

func parsePurchaseDate(value string) (time.Time, bool) {
	for _, layout := range purchaseDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
