package gitrepo

import "errors"

var (
	ErrGitNotFound  = errors.New("git executable not found in PATH")
	ErrCloneFailed  = errors.New("git clone failed")
	ErrCloneTimeout = errors.New("git clone timed out")
)
