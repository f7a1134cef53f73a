package consts

const (
	ApplicationName    = "NewsJam Server"
	ApplicationVersion = "v1.2.0"
)
