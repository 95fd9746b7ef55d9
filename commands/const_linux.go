package commands

const (
	_etc = "/usr/local/etc/killfeed"
	_var = "/usr/local/var/killfeed"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/sheets/.google/credentials.json"
)
