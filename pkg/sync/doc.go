/*
The sync package implements gp's backup algorithm. It pushes a local project
directory to a blob store, and rebuilds any pushed snapshot of it locally.

There are three kinds of remote objects per project:
1) Blobs -- The contents of tracked files, keyed by their sha256. Blobs are
   immutable, so uploading one twice is harmless.
2) State -- The Manifest (path -> hash) of the most recent push. It's what the
   next push diffs against, and is overwritten wholesale by every push.
3) History -- The chain of Snapshots. Each push appends one Snapshot holding
   the full Manifest, so any Snapshot can be restored on its own.

A push scans the project, diffs the scan against the remote State, uploads
the blobs that changed, and only once every upload has succeeded does it
overwrite the State and append to the History. An interrupted push may leave
orphaned blobs behind, but never a Snapshot that references missing content.

The sync algorithm only deals with files. Empty directories aren't synced.

There's no locking around State and History: two concurrent pushes of the
same project may lose one of the snapshots.
*/
package sync
