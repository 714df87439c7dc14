package parsers

import (
	// allow importing all default parsers with a single import
	_ "github.com/mattermost/bomsign/parsers/cargo"
	_ "github.com/mattermost/bomsign/parsers/npm"
	_ "github.com/mattermost/bomsign/parsers/pip"
	_ "github.com/mattermost/bomsign/parsers/pub"
)
