package extract

import "encoding/json"

func dump(f Fields) string {
	data, _ := json.Marshal(f)
	return string(data)
}
