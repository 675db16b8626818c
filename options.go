package ryys

// Defaults applied to every request when the corresponding option is left zero.
const (
	DefaultBodyLimitBytes   int64 = 1 << 20 // 1 MiB
	DefaultMaxFiles               = 10
	DefaultMaxFileSizeBytes int64 = 5 << 20 // 5 MiB
)

// BodyParserOptions bound what the body accessors are willing to read. Zero values take the defaults, a
// negative MaxFiles accepts no files at all.
type BodyParserOptions struct {
	BodyLimitBytes   int64
	MaxFiles         int
	MaxFileSizeBytes int64
}

func (o BodyParserOptions) withDefaults() BodyParserOptions {
	if o.BodyLimitBytes <= 0 {
		o.BodyLimitBytes = DefaultBodyLimitBytes
	}

	switch {
	case o.MaxFiles == 0:
		o.MaxFiles = DefaultMaxFiles
	case o.MaxFiles < 0:
		o.MaxFiles = 0
	}

	if o.MaxFileSizeBytes <= 0 {
		o.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}

	return o
}

// Collaborators are the byte-level helpers the body accessors and the attachment emitter delegate to.
// Nil fields are replaced by the package defaults.
type Collaborators struct {
	Collector BodyCollector
	Multipart MultipartParser
	Sniffer   Sniffer
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Collector == nil {
		c.Collector = LimitCollector{}
	}

	if c.Multipart == nil {
		c.Multipart = StreamingMultipartParser{}
	}

	if c.Sniffer == nil {
		c.Sniffer = MimetypeSniffer{}
	}

	return c
}
