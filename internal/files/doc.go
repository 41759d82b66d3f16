// Package files persists heats as JSON documents on the local file system.
//
// Manager wraps the raw file operations (atomic writes, reads, deletes)
// relative to a base directory. Discovery finds heat records by their file
// name, heat_<track>_<session>.json. HeatStore combines both into the file
// backed heat repository:
//
//	store := files.NewHeatStore(paths, logger)
//	if err := store.Save(ctx, heat); err != nil {
//	    return err
//	}
//	heat, err := store.Load(ctx, domain.TrackNarvskaya, "83557")
//	if errors.Is(err, domain.ErrRecordNotFound) {
//	    // not imported yet
//	}
package files
