// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package syncutil

import "context"

// AsyncTaskNotifier 用于协调一个后台任务的取消与完成通知。
//
// 使用方式：
//   - 任务持有 notifier，在 Context().Done() 时退出，并在结束前调用 Finish；
//   - 控制方调用 Cancel 请求任务退出，调用 BlockUntilFinish 等待任务结束。
type AsyncTaskNotifier[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	future chan struct{}
	result T
}

// NewAsyncTaskNotifier 创建一个新的任务通知器。
func NewAsyncTaskNotifier[T any]() *AsyncTaskNotifier[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &AsyncTaskNotifier[T]{
		ctx:    ctx,
		cancel: cancel,
		future: make(chan struct{}),
	}
}

// Context 返回任务应当监听的上下文。
func (n *AsyncTaskNotifier[T]) Context() context.Context {
	return n.ctx
}

// Cancel 请求任务退出。
func (n *AsyncTaskNotifier[T]) Cancel() {
	n.cancel()
}

// Finish 标记任务结束并记录结果。
//
// 只允许由任务本身调用一次，重复调用会 panic。
func (n *AsyncTaskNotifier[T]) Finish(result T) {
	n.result = result
	close(n.future)
}

// FinishChan 返回任务完成的通知通道。
func (n *AsyncTaskNotifier[T]) FinishChan() <-chan struct{} {
	return n.future
}

// BlockUntilFinish 阻塞直到任务调用 Finish。
func (n *AsyncTaskNotifier[T]) BlockUntilFinish() T {
	<-n.future
	return n.result
}
