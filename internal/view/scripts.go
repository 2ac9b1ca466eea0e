package view

// mailtoScript performs the contact form submission in the browser for the
// static export. It builds the same URI as contact.BuildMailto.
const mailtoScript = `(function(){
var f=document.getElementById("contact-form");
if(!f)return;
f.addEventListener("submit",function(e){
e.preventDefault();
var n=f.elements["name"].value,m=f.elements["message"].value;
var body=encodeURIComponent("Name: "+n+"\n\nMessage:\n"+m);
window.location.href="mailto:"+f.dataset.email+"?subject="+encodeURIComponent(f.dataset.subject)+"&body="+body;
});
})();`

// liveReloadScript reloads the page when the server announces a content
// change over the live reload socket.
const liveReloadScript = `(function(){
function connect(){
var proto=location.protocol==="https:"?"wss:":"ws:";
var ws=new WebSocket(proto+"//"+location.host+"/ws");
ws.onmessage=function(ev){
try{var msg=JSON.parse(ev.data);if(msg.type==="reload"){location.reload();}}catch(_){}
};
ws.onclose=function(){setTimeout(connect,1000);};
}
connect();
})();`
