package connection

type ReqStartGame struct {
	Mode string `json:"mode"`
}

// Pointers tell a missing coordinate apart from row or col 0
type ReqAttack struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}
