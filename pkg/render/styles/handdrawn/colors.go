package handdrawn

import "fmt"

const (
	ink       = "#222"
	greyMin   = 0xe4
	greyMax   = 0xf8
	rootColor = "#333"
)

// greyForID returns a light grey that is stable for an ID.
func greyForID(id string) string {
	v := greyMin + int(hash(id, 0)%uint64(greyMax-greyMin+1))
	return fmt.Sprintf("#%02x%02x%02x", v, v, v)
}
