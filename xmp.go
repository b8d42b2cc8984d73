package heif

import (
	"regexp"
	"sync"
)

var xmpAttributes sync.Map // map[string]*regexp.Regexp

// XMPAttribute looks up an attribute by its qualified name, e.g. "tiff:Orientation".
// Only the attribute form is recognized, element values are not.
func XMPAttribute(xmp []byte, name string) (string, bool) {
	re, ok := xmpAttributes.Load(name)
	if !ok {
		re, _ = xmpAttributes.LoadOrStore(name, regexp.MustCompile(`(?:^|\s)`+regexp.QuoteMeta(name)+`="([^"]*)"`))
	}

	m := re.(*regexp.Regexp).FindSubmatch(xmp)
	if len(m) != 2 {
		return "", false
	}

	return string(m[1]), true
}
