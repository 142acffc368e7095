package errors

import (
	goerrors "errors"
	"fmt"
)

// Kind classifies the failures surfaced by the sync engine. Callers should
// switch on the Kind rather than on error messages.
type Kind int

const (
	// Unknown is the kind of any error that wasn't created by this package.
	Unknown Kind = iota

	// DirectoryNotFound means the directory to scan doesn't exist.
	DirectoryNotFound

	// BlobNotFound means a content blob or state object is absent from the
	// blob store.
	BlobNotFound

	// SnapshotNotFound means no snapshot in the history matches the
	// requested id or prefix.
	SnapshotNotFound

	// HistoryNotFound means the project has never been pushed.
	HistoryNotFound

	// RemoteStoreError is any blob store I/O failure other than a missing key.
	RemoteStoreError

	// LocalIoError is a filesystem failure while scanning or materializing.
	LocalIoError

	// DestinationExists means a clone target directory already exists.
	DestinationExists

	// InvalidProjectName means the project name can't be used as a key
	// namespace or directory name.
	InvalidProjectName
)

var kindNames = map[Kind]string{
	Unknown:            "unknown error",
	DirectoryNotFound:  "directory not found",
	BlobNotFound:       "blob not found",
	SnapshotNotFound:   "snapshot not found",
	HistoryNotFound:    "history not found",
	RemoteStoreError:   "remote store error",
	LocalIoError:       "local io error",
	DestinationExists:  "destination exists",
	InvalidProjectName: "invalid project name",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure along with the context needed to act on it.
// Only the fields relevant to the Kind are set.
type Error struct {
	Kind Kind

	// Path is the local filesystem path involved, if any.
	Path string

	// Key is the blob store key involved, if any.
	Key string

	// Ref is the snapshot id, prefix, or project name involved, if any.
	Ref string

	// Err is the underlying cause, if any.
	Err error
}

func (err *Error) Error() string {
	msg := err.Kind.String()
	switch {
	case err.Path != "":
		msg = fmt.Sprintf("%s: %s", msg, err.Path)
	case err.Key != "":
		msg = fmt.Sprintf("%s: %s", msg, err.Key)
	case err.Ref != "":
		msg = fmt.Sprintf("%s: %s", msg, err.Ref)
	}

	if err.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Err)
	}
	return msg
}

func (err *Error) Unwrap() error {
	return err.Err
}

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var classified *Error
	if goerrors.As(err, &classified) {
		return classified.Kind
	}
	return Unknown
}

// Is reports whether err, or any error it wraps, has the given kind. Unknown
// never matches, since it only means that no kind was assigned.
func Is(err error, kind Kind) bool {
	return kind != Unknown && err != nil && KindOf(err) == kind
}

func NewDirectoryNotFound(path string) error {
	return &Error{Kind: DirectoryNotFound, Path: path}
}

func NewBlobNotFound(key string, cause error) error {
	return &Error{Kind: BlobNotFound, Key: key, Err: cause}
}

func NewSnapshotNotFound(ref string) error {
	return &Error{Kind: SnapshotNotFound, Ref: ref}
}

func NewHistoryNotFound(project string) error {
	return &Error{Kind: HistoryNotFound, Ref: project}
}

func NewRemoteStoreError(key string, cause error) error {
	return &Error{Kind: RemoteStoreError, Key: key, Err: cause}
}

func NewLocalIoError(path string, cause error) error {
	return &Error{Kind: LocalIoError, Path: path, Err: cause}
}

func NewDestinationExists(path string) error {
	return &Error{Kind: DestinationExists, Path: path}
}

func NewInvalidProjectName(name string) error {
	return &Error{Kind: InvalidProjectName, Ref: name}
}
