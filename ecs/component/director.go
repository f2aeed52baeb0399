package component

import "github.com/milk9111/stride/director"

type Director struct {
	Script  string
	Runtime *director.Director
	// Failed stops stepping after a runtime error until the script reloads.
	Failed bool
}

var DirectorComponent = NewComponent[Director]()
