// Package iterate turns arbitrary runtime values into pull-based value
// sequences.
//
// Two protocols are bridged. An explicit iterable resolves __iter__ and
// hands back an object implementing __next__, which signals the end with
// StopIteration. A legacy sequence only resolves __getitem__; GetIter wraps
// it in a SequenceIterator that probes indices 0, 1, 2, ... until the access
// raises IndexError.
//
// Consumers use Next to read one value with exhaustion mapped to ok=false,
// GetAll to drain an iterator eagerly, or Values to range over it from Go.
package iterate

import "github.com/tliron/commonlog"

const (
	iterMethod       = "__iter__"
	nextMethod       = "__next__"
	getItemMethod    = "__getitem__"
	lenMethod        = "__len__"
	lengthHintMethod = "__length_hint__"
	reversedMethod   = "__reversed__"
)

var log = commonlog.GetLogger("iterproto.iterate")
