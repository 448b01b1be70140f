// Package common provides logging helpers, message constants and the
// little-endian record reader shared by the solid list decoders.
package common

import (
	"errors"
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Sentinel errors
var (
	// ErrCorruptStructure marks a structural violation of the chunk format.
	ErrCorruptStructure = errors.New("corrupt structure")
	// ErrWriteUnsupported is returned by every write/serialize entry point.
	ErrWriteUnsupported = errors.New("writing solid lists is not supported")
	// ErrUnknownProfile is returned when a profile name is not registered.
	ErrUnknownProfile = errors.New("unknown profile")
)

// Error messages
const (
	ErrFailedToReadChunkHeader   = "failed to read chunk header"
	ErrFailedToReadListInfo      = "failed to read solid list info"
	ErrFailedToReadObjectHeader  = "failed to read object header"
	ErrFailedToReadDescriptor    = "failed to read mesh descriptor"
	ErrFailedToReadShadingGroup  = "failed to read shading group"
	ErrFailedToReadTextureTable  = "failed to read texture hash table"
	ErrFailedToReadVertexBuffer  = "failed to read vertex buffer"
	ErrFailedToReadFaces         = "failed to read face block"
	ErrFailedToReadMaterialName  = "failed to read material name"
	ErrFailedToReadOffsetTable   = "failed to read compressed object table"
	ErrFailedToReadBlockHeader   = "failed to read compression block header"
	ErrFailedToDecompressBlock   = "failed to decompress block"
	ErrFailedToAssembleObject    = "failed to assemble object"
	ErrShadingGroupSizeMismatch  = "shading group payload is not a multiple of the record size"
	ErrTextureIndexOutOfRange    = "texture index out of range"
	ErrFaceBlockTooShort         = "face block shorter than material triangle counts require"
	ErrFaceCountMismatch         = "face count does not match material triangle counts"
	ErrBlockSizeTooSmall         = "compression block smaller than its header"
	ErrFailedToCreateOutputFile  = "failed to create output file"
	ErrFailedToEncodeYAML        = "failed to encode YAML"
	ErrFailedToReadInputFile     = "failed to read input file"
	ErrFailedToDecodeSolidList   = "failed to decode solid list"
	ErrNoSolidListFound          = "no solid list chunk found"
	ErrUnexpectedEndOfData       = "unexpected end of data"
	ErrSeekOutOfRange            = "seek out of range"
	ErrNegativeLength            = "negative length"
)

// Info messages
const (
	InfoSolidListDecoded  = "Decoded solid list %q: %d objects (declared %d)"
	InfoSolidListsFound   = "Found %d solid list(s) in %s"
	InfoSolidListExported = "Exported %d objects to YAML: %s"
)

// Debug messages
const (
	DebugUnknownChunk        = "0x%08X [%d] @%d"
	DebugListInfo            = "List info: class=%q pipeline=%q objects=%d"
	DebugObjectDecoded       = "Object %q (0x%08X): %d materials, %d faces, %d vertex buffers"
	DebugPaddingSkipped      = "Chunk 0x%08X: skipped %d bytes of padding"
	DebugCompressedRecord    = "Compressed object 0x%08X @%d: %d -> %d bytes"
	DebugCompressedBlocks    = "Compressed object 0x%08X: %d block(s)"
	DebugTerminatorReached   = "Terminator 0x%08X reached @%d"
	DebugTruncatedRange      = "Range ends %d bytes into a chunk header @%d"
	DebugTextureIndexClamped = "Texture index %d clamped to 0 (table size %d)"
	DebugObjectCountMismatch = "Solid list declares %d objects but %d were decoded"
)

// Warning messages
const (
	WarnZeroVertexStride      = "Material %d: vertex stride is 0, vertex count left at 0"
	WarnUnmatchedMaterialName = "Material name %q has no material at index %d"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// Corrupt wraps ErrCorruptStructure with a message constant and formatted details.
func Corrupt(baseMessage, details string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: "+details, append([]interface{}{ErrCorruptStructure, baseMessage}, args...)...)
}
