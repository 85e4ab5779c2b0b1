package checkersdto

// RobotCommand is sent to the robot arm controller for each completed ply.
// Move holds the lowercase chain text, or "exit" when the game is over.
type RobotCommand struct {
	GameID string `json:"game_id"`
	Ply    int    `json:"ply"`
	Color  string `json:"color,omitempty"`
	Move   string `json:"move"`
}

// RobotAck is the controller's reply once the arm has finished executing.
type RobotAck struct {
	Ply    int    `json:"ply"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
