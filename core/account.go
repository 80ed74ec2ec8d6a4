package core

// AccountInfo is the view of one account handed to a program for a single
// invocation. Data aliases the host's working copy of the account storage:
// writes through it reach the ledger only if the host commits the invocation.
//
// len(Data) is the written size of the region, cap(Data) its allocated
// capacity. An account whose region has never been written has length zero.
type AccountInfo struct {
	Key      Pubkey
	Owner    Pubkey
	Lamports uint64
	Data     []byte

	IsSigner   bool
	IsWritable bool
}

// Space returns the allocated capacity of the account's storage region.
func (a *AccountInfo) Space() int {
	return cap(a.Data)
}

// Grow extends the visible data region to n bytes. The region is never
// reallocated; growing past the allocated capacity fails.
func (a *AccountInfo) Grow(n int) error {
	if n > cap(a.Data) {
		return ErrAccountDataTooSmall
	}
	if n > len(a.Data) {
		a.Data = a.Data[:n]
	}
	return nil
}
