package util

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/jxskiss/base62"
	"github.com/pkg/errors"
)

var (
	snowflakeNode     *snowflake.Node
	snowflakeNodeOnce sync.Once
)

func getSnowflakeNode() *snowflake.Node {
	snowflakeNodeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(errors.Wrap(err, "create snowflake node failed"))
		}
		snowflakeNode = node
	})
	return snowflakeNode
}

func GetSnowflakeIDInt64() int64 {
	return getSnowflakeNode().Generate().Int64()
}

func GetSnowflakeIDBase62() string {
	return string(base62.FormatInt(getSnowflakeNode().Generate().Int64()))
}
