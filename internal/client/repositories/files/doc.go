// Package files keeps the uploader's local journal of in-flight uploads.
//
// A key is added before its batch is presigned and removed when the transfer
// completes or the key has been reconciled. Keys still present on the next
// start belong to a session that was interrupted; the uploader reconciles
// them so the server does not keep records for objects that never arrived.
//
//	repo := files.NewSQLiteRepository(db)
//	_ = repo.Add(ctx, &models.PendingUpload{Key: key, Path: path})
//	pend, _ := repo.ListPending(ctx)
//	_ = repo.Remove(ctx, key)
package files
