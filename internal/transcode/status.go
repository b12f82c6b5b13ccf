package transcode

import "gigstream-go/internal/model"

// IngestTransition 提取任务开始时的状态推进
// 只从 uploading 向前推进到 processing；已在 processing 或终态的媒资保持不变
func IngestTransition(current string) (string, bool) {
	if current == model.VideoStatusUploading {
		return model.VideoStatusProcessing, true
	}
	return "", false
}

// ResolveVideoStatus 根据媒资的全部作业推导聚合状态
// settled 为 true 表示所有作业都已到达终态，此时：
// 至少一个作业成功 → ready，全部失败 → failed
// 对同一组作业重复调用结果一致，从多个作业完成路径并发触发是安全的
func ResolveVideoStatus(jobs []model.TranscodeJob) (status string, settled bool) {
	if len(jobs) == 0 {
		return "", false
	}

	anyCompleted := false
	for i := range jobs {
		if !jobs[i].IsTerminal() {
			return "", false
		}
		if jobs[i].Status == model.JobStatusCompleted {
			anyCompleted = true
		}
	}

	if anyCompleted {
		return model.VideoStatusReady, true
	}
	return model.VideoStatusFailed, true
}
