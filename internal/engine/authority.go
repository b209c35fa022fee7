package engine

// SetAuthority configures the administrative account that receives creation
// fees. First successful caller wins; once set the authority is immutable.
func (e *Engine) SetAuthority(candidate string) error {
	if candidate == e.reservedAccount {
		return ErrReservedAccount
	}
	if e.authority != "" {
		return ErrAuthorityAlreadySet
	}
	e.authority = candidate
	return nil
}

// SetCreationFee overwrites the pool creation fee. Any caller may tune the
// fee once an authority is configured; there is deliberately no further
// caller check.
func (e *Engine) SetCreationFee(newFee uint64) error {
	if e.authority == "" {
		return ErrAuthorityNotSet
	}
	e.creationFee = newFee
	return nil
}
