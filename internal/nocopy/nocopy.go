// Package nocopy defines a marker type that makes go vet flag accidental
// copies of structs that embed it (anything holding a mutex, in
// particular).
package nocopy

// NoCopy implements sync.Locker as a no-op so `go vet -copylocks` flags any
// struct embedding it that gets copied by value.
type NoCopy struct{}

func (*NoCopy) Lock()   {}
func (*NoCopy) Unlock() {}
