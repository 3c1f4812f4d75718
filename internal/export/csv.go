// Package export renders the catalog as CSV for spreadsheet tools.
// The output format is a byte-for-byte contract: a UTF-8 byte-order
// marker, a fixed header row, then one row per book with title and
// description always quoted (embedded quotes doubled) and the
// multi-valued author/genre columns joined with "; " inside a single
// quoted field.  encoding/csv quotes fields only when it has to, which
// breaks the always-quoted contract, so rows are built by hand.
package export

import (
	"strconv"
	"strings"

	"online-library/internal/model"
)

// utf8BOM is prefixed so spreadsheet tools that sniff the encoding
// recognize the file as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const header = "Id,Title,Description,Authors,Genres\n"

// Books renders the given books in catalog order.
func Books(books []model.Book) []byte {
	var b strings.Builder
	b.WriteString(header)
	for _, book := range books {
		b.WriteString(row(book))
	}
	out := make([]byte, 0, len(utf8BOM)+b.Len())
	out = append(out, utf8BOM...)
	out = append(out, b.String()...)
	return out
}

func row(b model.Book) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(b.ID, 10))
	sb.WriteByte(',')
	sb.WriteString(quote(b.Title))
	sb.WriteByte(',')
	sb.WriteString(quote(b.Description))
	sb.WriteByte(',')
	sb.WriteString(`"` + strings.Join(b.Authors, "; ") + `"`)
	sb.WriteByte(',')
	sb.WriteString(`"` + strings.Join(b.Genres, "; ") + `"`)
	sb.WriteByte('\n')
	return sb.String()
}

// quote wraps s in double quotes, doubling any embedded quote.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
