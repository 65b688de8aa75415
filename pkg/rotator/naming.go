package rotator

import (
	"strconv"
	"strings"
	"time"
)

const (
	logExt     = ".log"
	gzipExt    = ".gz"
	dateLayout = "2006-01-02"
)

// NamePolicy produces and recognizes the file names a Writer manages.
//
// The currently-active file is always "{Base}.log". Rotated files carry the
// calendar date of their rotation: "{Base}-2006-01-02.log". When a day sees
// more than one rotation the later files gain a numeric suffix,
// "{Base}-2006-01-02.2.log". With Compress set, rotated names end in ".gz".
type NamePolicy struct {
	Base     string
	Compress bool
}

// Filename returns the name for a file rotated at t with the given index.
// The zero time denotes the currently-active file, which never carries a
// date, an index, or a compression suffix. A zero index is not rendered.
func (p NamePolicy) Filename(t time.Time, index int) string {
	if t.IsZero() {
		return p.Base + logExt
	}
	var b strings.Builder
	b.WriteString(p.Base)
	b.WriteByte('-')
	b.WriteString(t.Format(dateLayout))
	if index > 0 {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(index))
	}
	b.WriteString(logExt)
	if p.Compress {
		b.WriteString(gzipExt)
	}
	return b.String()
}

// Parse extracts the rotation date and index from a rotated file name. It
// accepts both compressed and uncompressed forms regardless of the Compress
// flag, so files still awaiting compression are accounted for. The active
// file's name and foreign names yield ok == false.
func (p NamePolicy) Parse(name string) (t time.Time, index int, ok bool) {
	rest, found := strings.CutPrefix(name, p.Base+"-")
	if !found {
		return time.Time{}, 0, false
	}
	rest, _ = strings.CutSuffix(rest, gzipExt)
	rest, found = strings.CutSuffix(rest, logExt)
	if !found {
		return time.Time{}, 0, false
	}
	datePart, idxPart, hasIdx := strings.Cut(rest, ".")
	t, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return time.Time{}, 0, false
	}
	if hasIdx {
		index, err = strconv.Atoi(idxPart)
		if err != nil || index <= 0 {
			return time.Time{}, 0, false
		}
	}
	return t, index, true
}
