package errs

// String implementations below stand in for what `stringer -linecomment` would
// generate from the Category/Kind const blocks in errs.go; kept hand-written
// here since errs.go carries no go:generate directive.

func (c Category) String() string {
	switch c {
	case CatUser:
		return "User"
	case CatInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

func (k Kind) String() string {
	switch k {
	case KindDefine:
		return "Define"
	case KindOperate:
		return "Operate"
	case KindNoField:
		return "NoField"
	case KindOverflowLower:
		return "OverflowLower"
	case KindStringTooLong:
		return "StringTooLong"
	case KindPack:
		return "Pack"
	case KindUnpack:
		return "Unpack"
	case KindDuplicateName:
		return "DuplicateName"
	case KindDuplicateIndex:
		return "DuplicateIndex"
	case kindSkipFromPack:
		return "SkipFromPack"
	default:
		return "Unknown"
	}
}
