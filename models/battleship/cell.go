package battleship

// Cell is a single position of a grid. WasStruck implies
// both IsExposed and HasVessel.
type Cell struct {
	HasVessel bool `json:"hasVessel"`
	WasStruck bool `json:"wasStruck"`
	IsExposed bool `json:"isExposed"`
}

func (c *Cell) placeVessel() {
	c.HasVessel = true
}

func (c *Cell) attack() {
	c.IsExposed = true
	if c.HasVessel {
		c.WasStruck = true
	}
}
