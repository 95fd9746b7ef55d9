package commands

const (
	_etc = "/usr/local/etc/com.github.killfeed"
	_var = "/usr/local/var/com.github.killfeed"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/sheets/.google/credentials.json"
)
