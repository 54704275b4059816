package router

import "errors"

var errNoClassifier = errors.New("no intent classifier configured")
