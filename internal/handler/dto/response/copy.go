package response

import "github.com/jinzhu/copier"

// field names match between read models and responses; only json tags differ
func copyFields(to, from any) error {
	return copier.CopyWithOption(to, from, copier.Option{DeepCopy: true})
}
