package command

// MaxArgs bounds the argument vector. Tokens past the limit are silently
// dropped; that truncation is part of the protocol contract.
const MaxArgs = 16

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// SplitArgs splits payload on runs of whitespace into at most MaxArgs tokens.
// Leading and trailing whitespace is skipped; an all-whitespace payload yields
// an empty vector.
func SplitArgs(payload []byte) []string {
	args := make([]string, 0, 8)
	i := 0
	for len(args) < MaxArgs {
		for i < len(payload) && isSpace(payload[i]) {
			i++
		}
		if i >= len(payload) {
			break
		}
		start := i
		for i < len(payload) && !isSpace(payload[i]) {
			i++
		}
		args = append(args, string(payload[start:i]))
	}
	return args
}
