package core

// Request types

type UploadRequest struct {
	PGN string `json:"pgn" validate:"required,max=65536"`
}

type PlayersRequest struct {
	White string `json:"white" validate:"omitempty,max=64"`
	Black string `json:"black" validate:"omitempty,max=64"`
}

// Response types

type GameSummary struct {
	Key        string `json:"key"`
	White      string `json:"white"`
	Black      string `json:"black"`
	Moves      int    `json:"moves"`
	GameOver   bool   `json:"gameOver"`
	Winner     string `json:"winner,omitempty"` // "w" or "b"
	Resolution string `json:"resolution,omitempty"`
}

type GameResponse struct {
	Key      string   `json:"key"`
	PGN      string   `json:"pgn"`
	Metadata []string `json:"metadata"`
	Moves    []string `json:"moves"`
}

type ReviewResponse struct {
	Key           string   `json:"key"`
	Ply           int      `json:"ply"`
	LastMoveIndex int      `json:"lastMoveIndex"`
	FEN           string   `json:"fen"`
	History       []string `json:"history"`
	MoveNumber    int      `json:"moveNumber"`
	Exchange      int      `json:"exchange"`
}

type MaterialPoint struct {
	White int `json:"white"`
	Black int `json:"black"`
}

type ValuesResponse struct {
	Key         string          `json:"key"`
	Values      []MaterialPoint `json:"values"`
	PercentStep float64         `json:"percentStep"`
}

type DownloadResponse struct {
	FileName string `json:"fileName"`
	DataURI  string `json:"dataUri"`
}

type PendingResponse struct {
	Key      string `json:"key"`
	Deadline string `json:"deadline"`
}

type PlayersResponse struct {
	White string `json:"white"`
	Black string `json:"black"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
