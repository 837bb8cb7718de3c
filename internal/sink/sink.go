package sink

// Encoding tells the sink how the plot payload is represented. It is passed
// through to the sink verbatim and never validated.
type Encoding string

const (
	EncodingImage     Encoding = "image"
	EncodingHTML      Encoding = "html"
	EncodingDataFrame Encoding = "df"
)

// PlotData is a rendered plot ready to be forwarded to a Sink.
type PlotData struct {
	Data     any
	Encoding Encoding
}

// Sink accepts plot artifacts.
type Sink interface {
	Log(encoding Encoding, kind string, data any) error
}

// Nop discards every artifact.
type Nop struct{}

func (Nop) Log(Encoding, string, any) error { return nil }
