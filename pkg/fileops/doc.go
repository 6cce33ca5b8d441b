// Package fileops provides the small set of filesystem primitives oddrafter
// needs: object-name validation, exclusive atomic writes and a filtered,
// symlink-aware directory scan.
//
// # Validation
//
// ValidateObjectName rejects anything that could escape a flat storage
// directory. It performs static analysis only and never touches the disk:
//
//	if err := fileops.ValidateObjectName(name); err != nil {
//	    return fmt.Errorf("invalid object name: %w", err)
//	}
//
// # Atomic Operations
//
// WriteFileExclusive writes to a temporary file, syncs it and links it into
// place. The destination either appears complete or not at all, and an
// existing destination is never replaced:
//
//	err := fileops.WriteFileExclusive(dir, "100_v2.docx", data)
//	if errors.Is(err, fs.ErrExist) {
//	    // someone else created the version first
//	}
//
// # Directory Scanning
//
// ScanWithFilter walks a directory tree without following symlinks and
// returns paths relative to the scan root.
package fileops
