package probe

import "context"

// Class is the final outcome taxonomy for one candidate probe. The four
// classes are mutually exclusive and total: every probe lands in exactly
// one of them.
type Class int

const (
	// Accessible: success signal and a parseable record collection
	// (possibly empty).
	Accessible Class = iota
	// Protected: the resource exists but data is withheld (auth required
	// or forbidden).
	Protected
	// Absent: the endpoint reports the resource does not exist.
	Absent
	// Indeterminate: timeout, transport failure, unexpected status, or a
	// success response whose body could not be parsed. Undecided, not
	// failed.
	Indeterminate
)

func (c Class) String() string {
	switch c {
	case Accessible:
		return "accessible"
	case Protected:
		return "protected"
	case Absent:
		return "absent"
	default:
		return "indeterminate"
	}
}

// Outcome is the immutable result of probing one candidate.
type Outcome struct {
	Resource   string
	Class      Class
	StatusCode int      // raw status signal, 0 on transport failure
	Detail     string   // error detail, empty for clean accessible outcomes
	Sample     []Record // first page of records for accessible resources
}

// Classifier issues one probe per candidate and maps the raw outcome to
// the Class taxonomy. It holds no state between calls and never retries;
// retry policy, if any, belongs to the caller.
type Classifier struct {
	transport  Transport
	probeLimit int // row cap applied to existence probes
}

// NewClassifier creates a classifier over the given transport. probeLimit
// caps how many rows an existence probe may return; 1 is enough to tell
// an exposed resource from an empty signal.
func NewClassifier(transport Transport, probeLimit int) *Classifier {
	if probeLimit <= 0 {
		probeLimit = 1
	}
	return &Classifier{transport: transport, probeLimit: probeLimit}
}

// Classify probes one candidate. It always returns an outcome: transport
// failures become Indeterminate with the error preserved as detail, so a
// single candidate's failure never aborts a scan.
func (c *Classifier) Classify(ctx context.Context, candidate string) Outcome {
	resp, err := c.transport.Probe(ctx, candidate, c.probeLimit)
	if err != nil {
		return Outcome{
			Resource: candidate,
			Class:    Indeterminate,
			Detail:   err.Error(),
		}
	}

	out := Outcome{
		Resource:   candidate,
		StatusCode: resp.StatusCode,
		Detail:     resp.Detail,
	}

	switch resp.Class {
	case StatusSuccess:
		if resp.Rows == nil {
			// Success status but no parseable record collection. Never
			// promoted to Accessible.
			out.Class = Indeterminate
			return out
		}
		out.Class = Accessible
		out.Sample = resp.Rows
	case StatusAuthRequired, StatusForbidden:
		out.Class = Protected
	case StatusNotFound:
		out.Class = Absent
	default:
		out.Class = Indeterminate
	}
	return out
}
