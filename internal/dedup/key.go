package dedup

import "strings"

// KeySpace separates list-level tracking from item-level tracking.
type KeySpace string

const (
	SpaceList KeySpace = "view_item_list"
	SpaceItem KeySpace = "view_item"
)

// ListKey returns the stable key of a list-view for listID.
func ListKey(listID string) string {
	return string(SpaceList) + "|" + listID
}

// ItemKey returns the stable key of an item-view for the (listID, itemID) pair.
// Separators inside the components are escaped so distinct pairs never collide.
func ItemKey(listID, itemID string) string {
	return string(SpaceItem) + "|" + escape(listID) + "|" + escape(itemID)
}

var escaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

func escape(s string) string { return escaper.Replace(s) }
