package domain

// KeyPrefix namespaces every key this library reads or writes in the
// underlying store.
const KeyPrefix = "siamdocs:"
