package models

// Perform describes how often an exercise should be carried out,
// e.g. {Count: 3, Unit: "day"}.
type Perform struct {
	Count int    `json:"count"`
	Unit  string `json:"unit"`
}

type Exercise struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title" validate:"required,min=2,max=100"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Position    string  `json:"position"`
	Reps        int     `json:"reps"`
	Hold        int     `json:"hold"`
	Set         int     `json:"set"`
	Perform     Perform `json:"perform"`
}
