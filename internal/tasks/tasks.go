package tasks

import (
	"encoding/json"

	"tweeter/internal/domain"
)

// 定义任务类型常量
const (
	TypeActivityPersist = "activity:persist" // Activity 持久化任务类型
)

// ActivityPersistPayload 定义了 Activity 持久化任务的数据结构
type ActivityPersistPayload struct {
	Activity domain.Activity
}

// NewActivityPersistTask 序列化一个 Activity 持久化任务的 payload
func NewActivityPersistTask(activity domain.Activity) ([]byte, error) {
	payload := ActivityPersistPayload{Activity: activity}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return payloadBytes, nil
}
