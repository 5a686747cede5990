package contracts

type LockError string

const ErrUnlockOfUnlockedLock LockError = "unlock of unlocked lock"
const ErrRUnlockOfUnlockedLock LockError = "runlock of unlocked lock"

func (e LockError) Error() string { return string(e) }
