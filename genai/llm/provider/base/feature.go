package base

// Capability flag names for provider backends. No code in this module reads
// them: adapters report capabilities through the provider.Adapter methods
// SupportsImages, SupportsAttachments and HasNativePDF.
const (
	// IsMultimodal indicates the backend can accept image attachments.
	IsMultimodal string = "is-multimodal"
	// CanAttach indicates the backend can accept generic (non-image) attachments.
	CanAttach string = "can-attach"
	// HasNativePDF indicates the backend's model ids in use natively
	// understand PDF bytes without text extraction substitution (§4.1).
	HasNativePDF string = "has-native-pdf"
	// PermissiveImageMIME indicates the backend accepts
	// {jpeg,png,gif,webp} instead of the strict {jpeg,png} set.
	PermissiveImageMIME string = "permissive-image-mime"
)
