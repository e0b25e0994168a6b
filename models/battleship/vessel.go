package battleship

const (
	VesselIdCapital   = "capital"
	VesselIdCruiser   = "cruiser"
	VesselIdDestroyer = "destroyer"
	VesselIdScout     = "scout"
	VesselIdDrone     = "drone"

	// Sum of the lengths of the default fleet
	FleetCells = 17
)

type VesselType struct {
	Id     string `json:"id"`
	Length int    `json:"length"`
	Name   string `json:"name"`
}

func NewVesselType(id string, length int, name string) VesselType {
	return VesselType{Id: id, Length: length, Name: name}
}

// Largest first. Deployment happens in this order and
// big ships are the hardest to fit.
func DefaultVesselTypes() []VesselType {
	return []VesselType{
		NewVesselType(VesselIdCapital, 5, "Capital Ship"),
		NewVesselType(VesselIdCruiser, 4, "Cruiser"),
		NewVesselType(VesselIdDestroyer, 3, "Destroyer"),
		NewVesselType(VesselIdScout, 3, "Scout"),
		NewVesselType(VesselIdDrone, 2, "Drone"),
	}
}

func TotalVesselCells(vesselTypes []VesselType) int {
	total := 0
	for _, vt := range vesselTypes {
		total += vt.Length
	}
	return total
}
