package worker

import (
	"context"
	"errors"
	"net/http" // 需要导入 http 以检查 ErrServerClosed

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"tweeter/internal/repository"
	"tweeter/internal/tasks"
)

// WorkerServer 封装了 Asynq Worker Server 的启动和关闭逻辑
type WorkerServer struct {
	server       *asynq.Server
	log          *logrus.Entry
	activityRepo repository.ActivityRepository
	queues       map[string]int
}

// DefaultActivityQueue 是 activity 任务默认使用的队列
const DefaultActivityQueue = "low"

// workerQueues 返回 worker 监听的队列及其权重，activityQueue 总在其中
func workerQueues(activityQueue string) map[string]int {
	queues := map[string]int{
		"critical":           6,
		"default":            3,
		DefaultActivityQueue: 1,
	}
	if activityQueue != "" {
		if _, ok := queues[activityQueue]; !ok {
			queues[activityQueue] = 1
		}
	}
	return queues
}

// NewWorkerServer 创建一个新的 WorkerServer 实例。
// activityQueue 必须与入队时使用的队列一致，否则任务不会被处理。
func NewWorkerServer(redisOpt asynq.RedisClientOpt, activityRepo repository.ActivityRepository, activityQueue string, concurrency int, logger *logrus.Logger) *WorkerServer {
	if concurrency <= 0 {
		concurrency = 10
	}
	logEntry := logger.WithField("component", "worker_server")
	queues := workerQueues(activityQueue)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues:      queues,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskID := ""
				if rw := task.ResultWriter(); rw != nil {
					taskID = rw.TaskID()
				}
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_id":   taskID,
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
			Logger: logEntry,
		},
	)

	return &WorkerServer{
		server:       server,
		log:          logEntry,
		activityRepo: activityRepo,
		queues:       queues,
	}
}

// Queues 返回 worker 监听的队列名及权重
func (ws *WorkerServer) Queues() map[string]int {
	out := make(map[string]int, len(ws.queues))
	for name, weight := range ws.queues {
		out[name] = weight
	}
	return out
}

// Mux 返回注册了所有任务处理器的 ServeMux
func (ws *WorkerServer) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeActivityPersist, NewActivityPersistHandler(ws.activityRepo))
	return mux
}

// Start 运行 Worker Server
// 它应该在一个单独的 goroutine 中调用
func (ws *WorkerServer) Start() {
	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(ws.Mux()); err != nil {
		// 检查是否是正常关闭错误
		if !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Fatalf("Could not run worker server: %v", err)
		} else {
			ws.log.Info("Worker server stopped.")
		}
	}
}

// Shutdown 优雅地关闭 Worker Server
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}