package prop

// Bag is a mapping from property name (unique within the bag) to Property,
// plus a name attribute of its own. Insertion order is not significant and
// iteration order is not guaranteed stable.
type Bag struct {
	name   string
	values map[string]Property
}

// NewBag creates an empty, named property bag.
func NewBag(name string) *Bag {
	return &Bag{
		name:   name,
		values: make(map[string]Property),
	}
}

// Name returns the bag's name attribute.
func (b *Bag) Name() string { return b.name }

// Set inserts or overwrites the Property stored under key.
func (b *Bag) Set(key string, v Property) {
	b.values[key] = v
}

// Get returns the Property stored under key and whether it was present.
func (b *Bag) Get(key string) (Property, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Has reports whether key is present in the bag.
func (b *Bag) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// Keys returns the set of property names currently stored, in unspecified
// order.
func (b *Bag) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of properties stored.
func (b *Bag) Len() int { return len(b.values) }

// IntOr returns the scalar integer at key, or def if key is absent.
func (b *Bag) IntOr(key string, def int64) int64 {
	if v, ok := b.values[key]; ok {
		return v.Int()
	}
	return def
}

// StringOr returns the scalar string at key, or def if key is absent.
func (b *Bag) StringOr(key string, def string) string {
	if v, ok := b.values[key]; ok {
		return v.String()
	}
	return def
}

// DoubleOr returns the scalar double at key, or def if key is absent.
func (b *Bag) DoubleOr(key string, def float64) float64 {
	if v, ok := b.values[key]; ok {
		return v.Double()
	}
	return def
}

// StringsOr returns the string vector at key, or def if key is absent.
func (b *Bag) StringsOr(key string, def []string) []string {
	if v, ok := b.values[key]; ok {
		return v.Strings()
	}
	return def
}
