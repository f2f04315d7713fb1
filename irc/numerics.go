package irc

// IRC numeric reply codes (RFC 2812 names) used by this server.
const (
	RPL_WELCOME  = 1
	RPL_YOURHOST = 2
	RPL_CREATED  = 3
	RPL_MYINFO   = 4

	RPL_CHANNELMODEIS = 324
	RPL_NOTOPIC       = 331
	RPL_TOPIC         = 332
	RPL_INVITING      = 341
	RPL_NAMREPLY      = 353
	RPL_ENDOFNAMES    = 366

	ERR_NOSUCHNICK       = 401
	ERR_NOSUCHCHANNEL    = 403
	ERR_CANNOTSENDTOCHAN = 404
	ERR_NORECIPIENT      = 411
	ERR_UNKNOWNCOMMAND   = 421
	ERR_NONICKNAMEGIVEN  = 431
	ERR_NICKNAMEINUSE    = 433
	ERR_USERNOTINCHANNEL = 441
	ERR_NOTONCHANNEL     = 442
	ERR_NEEDMOREPARAMS   = 461
	ERR_ALREADYREGISTRED = 462
	ERR_PASSWDMISMATCH   = 464
	ERR_CHANOPRIVSNEEDED = 482

	// ERR_UMODEUNKNOWNFLAG doubles as the "unknown CAP subcommand" reply.
	ERR_UMODEUNKNOWNFLAG = 501
)
