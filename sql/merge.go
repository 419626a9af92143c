package sql

// Merge applies patch to target field by field and returns target.
//
// A None patch value deletes the key. When both sides hold objects the
// merge recurses; every other pairing overwrites wholesale, so arrays and
// geometries are replaced, never element-merged. Keys present only in
// target are untouched. The record identifier is immune at the root only;
// an id key inside a nested object is an ordinary field. Re-applying an
// identical patch to its own output is a no-op.
func Merge(target, patch Object) Object {
	if target == nil {
		target = Object{}
	}
	for key, pv := range patch {
		if key == "id" {
			continue
		}
		mergeField(target, key, pv)
	}
	return target
}

func mergeField(target Object, key string, pv Value) {
	if IsNone(pv) {
		delete(target, key)
		return
	}
	if to, ok := target[key].(Object); ok {
		if po, ok := pv.(Object); ok {
			for k, v := range po {
				mergeField(to, k, v)
			}
			return
		}
	}
	target[key] = pv
}
