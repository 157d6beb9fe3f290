package network

const (
	MsgTypeHeartbeat  = 1
	MsgTypeJoinGame   = 101
	MsgTypeLeaveGame  = 102
	MsgTypeCreateGame = 103
	MsgTypeCommand    = 201
	MsgTypeChat       = 202
	MsgTypeState      = 301
	MsgTypeHistory    = 302
	MsgTypeChatRelay  = 303
	MsgTypeError      = 304
	MsgTypeJoined     = 305
)
