package redis

import "fmt"

const keyPrefix = "hoopsdraft"

func playerDetailKey(id int) string {
	return fmt.Sprintf("%s:player_detail:%d", keyPrefix, id)
}

func teamsKey(key string) string {
	return fmt.Sprintf("%s:teams:%s", keyPrefix, key)
}
