// Package backup copies the dormitory state to S3-compatible object storage
// and restores it.
//
// Each backup lives under <prefix>/<stamp>/ and holds snapshot.json (every
// collection, restorable on either backend), files/ (the raw flat files when
// the files backend is used) and manifest.json, which is written last.
// Backups beyond storage.keep are pruned after every upload.
//
// # HTTP Endpoints
//
//   - GET /backups : Lists backup stamps.
//   - POST /backups : Uploads a backup.
//   - GET /backups/:stamp : Returns a manifest.
//   - POST /backups/:stamp/restore : Restores a backup ("latest" allowed).
package backup
