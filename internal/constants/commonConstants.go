package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixClanByID  CachePrefix = "clan:id:"
	CachePrefixClansTop  CachePrefix = "clans:top:"
	CachePrefixClansPage CachePrefix = "clans:page:"
	CachePrefixRankTable CachePrefix = "ranks:table"

	LockPrefixClan   = "lock:clan:"
	LockPrefixMember = "lock:member:"
	LockPrefixCreate = "lock:create:"
)
