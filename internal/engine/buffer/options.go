package buffer

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithDelimiter sets the line delimiter. The default is "\n".
func WithDelimiter(delimiter string) Option {
	return func(b *Buffer) {
		if delimiter != "" {
			b.delimiter = delimiter
		}
	}
}
